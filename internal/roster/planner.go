package roster

import "time"

// WeekAnchors returns the Mondays of every week the range touches, in
// strictly increasing order. The union of [anchor, anchor+6] windows covers
// the whole range and no anchor falls outside [MondayOf(start), MondayOf(end)].
//
// The caller guarantees start <= end; a violated range is a programming
// error, not a runtime condition here.
func WeekAnchors(r DateRange) []time.Time {
	var anchors []time.Time
	for w := MondayOf(r.Start); !w.After(r.End); w = w.AddDate(0, 0, 7) {
		weekEnd := w.AddDate(0, 0, 6)
		if !weekEnd.Before(r.Start) {
			anchors = append(anchors, w)
		}
	}
	return anchors
}
