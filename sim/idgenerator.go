package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var idGeneratorMutex sync.Mutex
var idGeneratorInstantiated bool
var idGenerator IDGenerator

// IDGenerator can generate IDs for runs and contexts.
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

// UseSequentialIDGenerator configures the ID generator to generate IDs
// sequentially. Sequential IDs are deterministic and therefore preferred in
// tests.
func UseSequentialIDGenerator() {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if idGeneratorInstantiated {
		log.Panic("cannot change id generator type after using it")
	}

	idGenerator = &sequentialIDGenerator{}
	idGeneratorInstantiated = true
}

// GetIDGenerator returns the ID generator used in the current simulation.
// Unless configured otherwise, IDs are random and safe to generate from
// multiple worker fibers.
func GetIDGenerator() IDGenerator {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if !idGeneratorInstantiated {
		idGenerator = xidGenerator{}
		idGeneratorInstantiated = true
	}

	return idGenerator
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(idNumber, 10)
}

type xidGenerator struct{}

func (g xidGenerator) Generate() string {
	return xid.New().String()
}
