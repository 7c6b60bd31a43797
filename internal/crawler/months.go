package crawler

import "time"

const dateLayout = "2006-01-02"

// monthRange returns the inclusive list of YYYY-MM buckets spanned by a
// competition's date range. An unparsable start date yields no buckets
// (the competition simply contributes no results); an unparsable or
// out-of-order end date degrades to the start month alone.
func monthRange(startDate, endDate string) []string {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil || end.Before(start) {
		end = start
	}

	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []string
	for !cur.After(last) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}
