// Package objstore tracks the protocol objects bound to a
// connection, keyed by object ID.
package objstore

import (
	"sync"

	"deedles.dev/waywin/wire"
)

// Store is safe for concurrent use. The reader goroutine resolves
// senders while other goroutines create and destroy proxies.
type Store struct {
	m       sync.Mutex
	objects map[uint32]wire.Object
	nextID  uint32
}

func New(start uint32) *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
		nextID:  start,
	}
}

func (s *Store) Add(obj wire.Object) {
	s.m.Lock()
	defer s.m.Unlock()

	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
		s.nextID++
	}

	s.objects[id] = obj
}

func (s *Store) Get(id uint32) wire.Object {
	s.m.Lock()
	defer s.m.Unlock()

	return s.objects[id]
}

func (s *Store) Delete(id uint32) {
	s.m.Lock()
	obj := s.objects[id]
	delete(s.objects, id)
	s.m.Unlock()

	if obj != nil {
		obj.Delete()
	}
}
