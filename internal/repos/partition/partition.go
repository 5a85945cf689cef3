// Package partition groups repositories by the state they were observed in.
package partition

import (
	"iter"

	"github.com/temirov/repostate/internal/gitrepo"
)

// StatefulRepository is anything that can report its repository state.
type StatefulRepository interface {
	State() gitrepo.RepositoryState
}

// StatePartition buckets repositories by state, keeping insertion order within each bucket.
// Each repository's state is read once, at insertion.
type StatePartition[R StatefulRepository] struct {
	buckets map[gitrepo.RepositoryState][]R
	size    int
}

// New returns an empty partition.
func New[R StatefulRepository]() *StatePartition[R] {
	return &StatePartition[R]{buckets: make(map[gitrepo.RepositoryState][]R)}
}

// Collect builds a partition from every repository in repositories.
func Collect[R StatefulRepository](repositories iter.Seq[R]) *StatePartition[R] {
	statePartition := New[R]()
	for repository := range repositories {
		statePartition.Insert(repository)
	}
	return statePartition
}

// Insert appends repository to the bucket of its current state.
func (statePartition *StatePartition[R]) Insert(repository R) {
	state := repository.State()
	statePartition.buckets[state] = append(statePartition.buckets[state], repository)
	statePartition.size++
}

// Bucket returns a copy of the repositories recorded under state.
func (statePartition *StatePartition[R]) Bucket(state gitrepo.RepositoryState) []R {
	bucket := statePartition.buckets[state]
	if len(bucket) == 0 {
		return nil
	}
	return append([]R(nil), bucket...)
}

// Take removes and returns the repositories recorded under state. Other buckets are untouched.
func (statePartition *StatePartition[R]) Take(state gitrepo.RepositoryState) []R {
	bucket := statePartition.buckets[state]
	delete(statePartition.buckets, state)
	statePartition.size -= len(bucket)
	return bucket
}

// Len reports how many repositories the partition currently holds.
func (statePartition *StatePartition[R]) Len() int {
	return statePartition.size
}
