package hiercte

import (
	"strconv"
	"sync/atomic"
)

// CTEPrefix starts every generated CTE name.
const CTEPrefix = "hierarchy_cte_"

// NameGenerator hands out CTE names. Each call must return a name not
// returned before by the same generator.
type NameGenerator interface {
	Next() string
}

// Counter numbers CTEs hierarchy_cte_1, hierarchy_cte_2, ... It is not safe
// for concurrent use.
type Counter struct {
	n int
}

// NewCounter returns a counter starting at 1.
func NewCounter() *Counter {
	return &Counter{}
}

// Next returns the next name.
func (c *Counter) Next() string {
	c.n++
	return CTEPrefix + strconv.Itoa(c.n)
}

// SharedCounter is a Counter that may be shared between goroutines.
type SharedCounter struct {
	n atomic.Int64
}

// NewSharedCounter returns a shared counter starting at 1.
func NewSharedCounter() *SharedCounter {
	return &SharedCounter{}
}

// Next returns the next name.
func (c *SharedCounter) Next() string {
	return CTEPrefix + strconv.FormatInt(c.n.Add(1), 10)
}
