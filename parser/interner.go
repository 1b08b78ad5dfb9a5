package parser

// Interner implements string interning to reduce memory usage.
//
// Account names and commodity symbols repeat on almost every posting of a
// journal. Keeping one canonical string per distinct value means each posting
// references a shared instance instead of its own copy.
type Interner struct {
	pool map[string]string
}

// NewInterner creates a new string interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of the string.
// If the string is already in the pool, returns the existing instance.
// Otherwise, adds it to the pool and returns it.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// InternBytes converts a byte slice to a string and interns it.
// The lookup does not allocate; a copy is made only for new values.
func (i *Interner) InternBytes(b []byte) string {
	if interned, ok := i.pool[string(b)]; ok {
		return interned
	}
	s := string(b)
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the intern pool.
func (i *Interner) Size() int {
	return len(i.pool)
}

// Reset clears the intern pool.
func (i *Interner) Reset() {
	i.pool = make(map[string]string)
}
