package sticker

// Sticker is one placed instance on the canvas.
type Sticker struct {
	ID     string `json:"id"`
	Glyph  string `json:"glyph"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Store keeps placed stickers in insertion order, which is also the order
// they are drawn in. It is not safe for concurrent use.
type Store struct {
	stickers []Sticker
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(st Sticker) {
	s.stickers = append(s.stickers, st)
}

func (s *Store) Move(id string, x, y int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.stickers[i].X = x
	s.stickers[i].Y = y
	return true
}

func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.stickers = append(s.stickers[:i], s.stickers[i+1:]...)
	return true
}

func (s *Store) Clear() {
	s.stickers = nil
}

func (s *Store) Get(id string) (Sticker, bool) {
	i := s.index(id)
	if i < 0 {
		return Sticker{}, false
	}
	return s.stickers[i], true
}

// List returns a copy of the stickers, bottom first.
func (s *Store) List() []Sticker {
	out := make([]Sticker, len(s.stickers))
	copy(out, s.stickers)
	return out
}

func (s *Store) Len() int {
	return len(s.stickers)
}

func (s *Store) index(id string) int {
	for i, st := range s.stickers {
		if st.ID == id {
			return i
		}
	}
	return -1
}
