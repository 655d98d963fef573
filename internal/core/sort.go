package core

import "sort"

// SortForDisplay orders records for the admin view. The chain is:
//
//  1. absent or unparseable dates before all valid dates
//  2. calendar month ascending, ignoring year (recurring-anniversary
//     order, not chronological)
//  3. day of month ascending
//  4. year ascending
//  5. name lexicographic ascending
func SortForDisplay(records []EventRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return displayLess(records[i], records[j])
	})
}

func displayLess(a, b EventRecord) bool {
	ta, aok := ParseEventDate(a.DateOfEvent)
	tb, bok := ParseEventDate(b.DateOfEvent)

	if aok != bok {
		return !aok
	}
	if aok {
		if ta.Month() != tb.Month() {
			return ta.Month() < tb.Month()
		}
		if ta.Day() != tb.Day() {
			return ta.Day() < tb.Day()
		}
		if ta.Year() != tb.Year() {
			return ta.Year() < tb.Year()
		}
	}
	return a.Name < b.Name
}
