package app

import (
	"sync"

	"github.com/inkglass/corepad/internal/document"
	"github.com/inkglass/corepad/internal/plugin"
	"github.com/inkglass/corepad/internal/viewport"
)

// View is one split showing a buffer: its own viewport (scroll position,
// dimensions) over a shared Document.
type View struct {
	ID       int64
	Buffer   plugin.BufferID
	Viewport *viewport.Viewport
}

// Session owns every open document and every view (split) showing one,
// generalizing the core's one-owner-per-document model to more than one
// buffer. It is the thing
// plugin.DocumentAPI's Buffers resolver is bound to, and the thing that
// fans SetBufferCursor's "every split showing that buffer" requirement
// out across views, since plugin.DocumentAPI itself has no layout model.
type Session struct {
	mu sync.RWMutex

	documents map[plugin.BufferID]*document.Document
	paths     map[plugin.BufferID]string
	nextBuf   int64

	views   map[int64]*View
	nextVID int64

	active plugin.BufferID
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{
		documents: make(map[plugin.BufferID]*document.Document),
		paths:     make(map[plugin.BufferID]string),
		views:     make(map[int64]*View),
	}
}

// OpenScratch registers a new in-memory document seeded with text and
// returns its BufferID.
func (s *Session) OpenScratch(text string) plugin.BufferID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBuf++
	id := plugin.BufferID(s.nextBuf)
	s.documents[id] = document.NewFromString(text)
	if len(s.documents) == 1 {
		s.active = id
	}
	return id
}

// OpenFile loads path from disk under enc and registers it.
func (s *Session) OpenFile(path string, enc document.Encoding) (plugin.BufferID, error) {
	d, err := document.Open(path, enc)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextBuf++
	id := plugin.BufferID(s.nextBuf)
	s.documents[id] = d
	s.paths[id] = path
	if len(s.documents) == 1 {
		s.active = id
	}
	return id, nil
}

// Close discards a document and every view showing it.
func (s *Session) Close(id plugin.BufferID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.paths, id)
	for vid, v := range s.views {
		if v.Buffer == id {
			delete(s.views, vid)
		}
	}
}

// Document resolves id. It satisfies plugin.Buffers.
func (s *Session) Document(id plugin.BufferID) (*document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[id]
	return d, ok
}

// Active returns the active buffer's Document, or nil if none is open.
func (s *Session) Active() (plugin.BufferID, *document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[s.active]
	return s.active, d, ok
}

// SetActive changes the active buffer, if it is open.
func (s *Session) SetActive(id plugin.BufferID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return false
	}
	s.active = id
	return true
}

// OpenView creates a new view of buf sized width x height.
func (s *Session) OpenView(buf plugin.BufferID, width, height int) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[buf]; !ok {
		return nil, false
	}
	s.nextVID++
	v := &View{ID: s.nextVID, Buffer: buf, Viewport: viewport.New(width, height)}
	s.views[v.ID] = v
	return v, true
}

// CloseView removes a view.
func (s *Session) CloseView(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, id)
}

// ViewsForBuffer returns every view currently showing buf.
func (s *Session) ViewsForBuffer(buf plugin.BufferID) []*View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*View
	for _, v := range s.views {
		if v.Buffer == buf {
			out = append(out, v)
		}
	}
	return out
}

// MoveCursorEverywhere moves buf's primary cursor, then ensures the new
// position is visible in every view currently showing buf.
func (s *Session) MoveCursorEverywhere(buf plugin.BufferID, position int64) bool {
	d, ok := s.Document(buf)
	if !ok {
		return false
	}
	total := d.TotalBytes()
	moved := d.Cursors().Primary().MoveTo(position, total).ClearSelection()
	d.Cursors().SetPrimary(moved)

	line, col := d.OffsetToPosition(moved.Position)
	for _, v := range s.ViewsForBuffer(buf) {
		v.Viewport.ScrollToReveal(line, int(col), true)
	}
	return true
}
