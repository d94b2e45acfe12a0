package sim

import (
	"log"
	"os"
	"sync"
)

// A Context carries the per-fiber state that actions need while the
// simulation is executing: the identity of the worker fiber driving the
// action, a logger, and a free-form property table.
//
// The kernel creates one Context per worker fiber and hands it to the
// fiber's action sequence through ConfigureFiber before the first run
// starts. Actions must not share a Context across fibers.
type Context struct {
	id          string
	workerIndex int
	logger      *log.Logger

	propertyLock sync.RWMutex
	properties   map[string]interface{}
}

// NewContext creates a context for the worker fiber with the given index.
func NewContext(workerIndex int) *Context {
	return &Context{
		id:          GetIDGenerator().Generate(),
		workerIndex: workerIndex,
		logger:      log.New(os.Stderr, "", log.LstdFlags),
		properties:  make(map[string]interface{}),
	}
}

// ID returns the unique identifier of the context.
func (c *Context) ID() string {
	return c.id
}

// WorkerIndex returns the index of the worker fiber the context belongs to.
func (c *Context) WorkerIndex() int {
	return c.workerIndex
}

// Logger returns the logger that actions running in this context should
// write to.
func (c *Context) Logger() *log.Logger {
	return c.logger
}

// SetLogger replaces the context logger.
func (c *Context) SetLogger(l *log.Logger) {
	if l == nil {
		log.Panic("context logger must not be nil")
	}

	c.logger = l
}

// Property returns the property stored under the given key.
func (c *Context) Property(key string) (interface{}, bool) {
	c.propertyLock.RLock()
	defer c.propertyLock.RUnlock()

	v, ok := c.properties[key]
	return v, ok
}

// SetProperty stores a property under the given key.
func (c *Context) SetProperty(key string, value interface{}) {
	c.propertyLock.Lock()
	defer c.propertyLock.Unlock()

	c.properties[key] = value
}
