package proc

import "github.com/m-marini/wheellyj-sub009/internal/core"

// Observer receives context side-effect notifications: target-changed
// whenever the target is (re)assigned, and state-changed whenever the
// current state id changes. Either callback may be nil.
type Observer struct {
	OnTargetChanged func(target *core.Point)
	OnStateChanged  func(stateID string)
}

// Context is the agent's per-run mutable state: a namespaced key/value
// map, an operand stack for the command micro-VM, the latched world
// model, the current state id, and the pending target point. State
// node keys are namespaced by state id ("<id>.<key>") by the caller
// (see proc.Prefix) so distinct nodes never see each other's slots.
type Context struct {
	values     map[string]Value
	stack      []Value
	world      core.WorldModel
	stateID    string
	target     *core.Point
	observer   Observer
	clearMap   func()
}

// NewContext builds an empty context. clearMap is invoked by ClearMap
// and may be nil in tests that don't exercise it.
func NewContext(clearMap func(), observer Observer) *Context {
	return &Context{
		values:   make(map[string]Value),
		clearMap: clearMap,
		observer: observer,
	}
}

// Put stores value under key.
func (c *Context) Put(key string, value Value) {
	c.values[key] = value
}

// Get returns the value stored under key and whether it was present.
func (c *Context) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Remove deletes key from the context.
func (c *Context) Remove(key string) {
	delete(c.values, key)
}

// GetInt returns the widened int64 value at key, or def if absent/non-numeric.
func (c *Context) GetInt(key string, def int64) int64 {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	return v.AsInt(def)
}

// GetLong is an alias for GetInt, matching the spec's named accessor.
func (c *Context) GetLong(key string, def int64) int64 { return c.GetInt(key, def) }

// GetDouble returns the widened float64 value at key, or def if absent/non-numeric.
func (c *Context) GetDouble(key string, def float64) float64 {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	return v.AsFloat(def)
}

// GetText returns the text value at key, or def if absent/not text.
func (c *Context) GetText(key string, def string) string {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	return v.AsText(def)
}

// GetPoint returns the point value at key, or def if absent/not a point.
func (c *Context) GetPoint(key string, def core.Point) core.Point {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	return v.AsPoint(def)
}

// Push pushes value onto the operand stack.
func (c *Context) Push(value Value) {
	c.stack = append(c.stack, value)
}

// Pop removes and returns the top of the stack, or ErrStackUnderflow
// if empty.
func (c *Context) Pop() (Value, error) {
	if len(c.stack) == 0 {
		return Value{}, ErrStackUnderflow
	}
	v := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return v, nil
}

// Peek returns the top of the stack without removing it, or
// ErrStackUnderflow if empty.
func (c *Context) Peek() (Value, error) {
	if len(c.stack) == 0 {
		return Value{}, ErrStackUnderflow
	}
	return c.stack[len(c.stack)-1], nil
}

// StackSize returns the number of operands currently on the stack.
func (c *Context) StackSize() int {
	return len(c.stack)
}

// SetTarget (re)assigns the pending target point and fires
// target-changed. Passing nil clears the UI indicator.
func (c *Context) SetTarget(target *core.Point) {
	c.target = target
	if c.observer.OnTargetChanged != nil {
		c.observer.OnTargetChanged(target)
	}
}

// Target returns the currently pending target, or nil if none is set.
func (c *Context) Target() *core.Point {
	return c.target
}

// ClearMap invokes the radar-map clear hook supplied at construction.
func (c *Context) ClearMap() {
	if c.clearMap != nil {
		c.clearMap()
	}
}

// WorldModel returns the world model latched for this tick.
func (c *Context) WorldModel() core.WorldModel {
	return c.world
}

// SetWorldModel latches a new world model snapshot — called by the
// agent once per tick, never by state nodes or commands.
func (c *Context) SetWorldModel(world core.WorldModel) {
	c.world = world
}

// StateID returns the id of the currently active state node.
func (c *Context) StateID() string {
	return c.stateID
}

// SetStateID updates the current state id and fires state-changed if
// it actually changed.
func (c *Context) SetStateID(id string) {
	if id == c.stateID {
		return
	}
	c.stateID = id
	if c.observer.OnStateChanged != nil {
		c.observer.OnStateChanged(id)
	}
}

// Prefix namespaces a key with a state id, e.g. Prefix("halt", "timeout") == "halt.timeout".
func Prefix(stateID, key string) string {
	return stateID + "." + key
}
