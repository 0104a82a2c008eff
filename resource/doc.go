// Package resource bounds the memory and read bandwidth spent loading
// vehicle position datasets.
//
// A Controller with a memory limit rejects inputs that do not fit the budget
// up front (ErrMemoryLimit) instead of failing halfway through a download.
// An IO limit throttles remote ranged reads. A nil *Controller is valid and
// imposes no limits.
package resource
