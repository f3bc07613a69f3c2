package shader

import "go.uber.org/zap"

// uniformCache memoizes uniform locations and reports unknown names once.
type uniformCache struct {
	lookup    func(name string) int32
	locations map[string]int32
	log       *zap.Logger
}

func newUniformCache(lookup func(string) int32, log *zap.Logger) *uniformCache {
	return &uniformCache{
		lookup:    lookup,
		locations: make(map[string]int32),
		log:       log,
	}
}

// location returns the location for name and whether the program declares it.
func (c *uniformCache) location(name string) (int32, bool) {
	loc, ok := c.locations[name]
	if !ok {
		loc = c.lookup(name)
		c.locations[name] = loc
		if loc < 0 {
			c.log.Warn("uniform not declared by shader; value ignored", zap.String("uniform", name))
		}
	}
	return loc, loc >= 0
}
