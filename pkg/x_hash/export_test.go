package x_hash

// ReplaceFunction swaps the hash function without rehashing.
func (t *Table) ReplaceFunction(fn Function) { t.fn = fn }
