package builder

// AnnotateRows sets First on every top-level block that opens a new row of
// the 12-column grid. Nested blocks pass through with First cleared.
//
// A block opens a row when the running span is empty, is exactly full, or
// would overflow with the block's width added. The input slice is not
// modified.
func AnnotateRows(blocks []Instance) []Instance {
	out := make([]Instance, len(blocks))
	span := 0
	for i, inst := range blocks {
		inst.First = false
		if !inst.TopLevel() {
			out[i] = inst
			continue
		}
		width := inst.Width()
		overflow := span + width
		if overflow > GridColumns || span == GridColumns || span == 0 {
			span = 0
			inst.First = true
		}
		span += width
		out[i] = inst
	}
	return out
}
