package bencode

// Dict is an insertion-ordered bencode dictionary. Some torrent clients
// produce dictionaries with unsorted or duplicate keys, and re-sorting them
// changes the bytes a later infohash is calculated over - so the ordered
// decode mode keeps entries exactly as they appeared on disk.

type Entry struct {
	Key   string
	Value any
}

type Dict struct {
	entries []Entry
}

func NewDict() *Dict {
	return &Dict{}
}

// Add appends an entry, keeping any existing entries with the same key
func (d *Dict) Add(key string, value any) {
	d.entries = append(d.entries, Entry{key, value})
}

// Get returns the value of the first entry with the given key
func (d *Dict) Get(key string) (any, bool) {
	for _, e := range d.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// GetOr returns the value of the first entry with the given key, or fallback if absent
func (d *Dict) GetOr(key string, fallback any) any {
	if v, exists := d.Get(key); exists {
		return v
	}
	return fallback
}

// Set replaces the value of the first entry with the given key, in place.
// Returns false if no entry has that key
func (d *Dict) Set(key string, value any) bool {
	for i := range d.entries {
		if d.entries[i].Key == key {
			d.entries[i].Value = value
			return true
		}
	}
	return false
}

func (d *Dict) Has(key string) bool {
	_, exists := d.Get(key)
	return exists
}

func (d *Dict) Len() int {
	return len(d.entries)
}

// Entries returns the underlying entry slice in insertion order, duplicates included
func (d *Dict) Entries() []Entry {
	return d.entries
}
