package scheduling

// GenerateSlots нарезает окно на слоты длиной sliceMinutes.
// При нулевой длительности возвращается один слот на всё окно.
// Остаток короче одного слота отбрасывается.
func GenerateSlots(w Window, sliceMinutes int) []Window {
	if w.End <= w.Start {
		return nil
	}
	if sliceMinutes <= 0 {
		return []Window{w}
	}

	slots := make([]Window, 0, w.Minutes()/sliceMinutes)
	for cursor := w.Start; cursor.Add(sliceMinutes) <= w.End; cursor = cursor.Add(sliceMinutes) {
		slots = append(slots, Window{Start: cursor, End: cursor.Add(sliceMinutes)})
	}
	return slots
}
