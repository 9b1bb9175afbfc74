package replay

import (
	"errors"
	"io"
	"sort"
	"time"
)

// MessageStats aggregates the round trips of one message type.
type MessageStats struct {
	Channel  string
	Name     string
	Count    int
	Failed   int
	Outcomes map[string]int
	Total    time.Duration
}

// Mean returns the mean round-trip duration.
func (s MessageStats) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Summary aggregates a whole journal.
type Summary struct {
	Entries  int
	Failed   int
	First    time.Time
	Last     time.Time
	Messages []MessageStats
}

// Summarize drains r and aggregates its entries per channel and message.
// Messages are sorted by channel then name.
func Summarize(r *Reader) (Summary, error) {
	var sum Summary
	index := make(map[[2]string]*MessageStats)

	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, err
		}
		if sum.Entries == 0 || e.Start.Before(sum.First) {
			sum.First = e.Start
		}
		if e.Start.After(sum.Last) {
			sum.Last = e.Start
		}
		sum.Entries++

		key := [2]string{e.Channel, e.Name}
		ms, ok := index[key]
		if !ok {
			ms = &MessageStats{Channel: e.Channel, Name: e.Name, Outcomes: make(map[string]int)}
			index[key] = ms
		}
		ms.Count++
		ms.Outcomes[e.Outcome]++
		ms.Total += e.Duration
		if !e.Delivered() {
			ms.Failed++
			sum.Failed++
		}
	}

	sum.Messages = make([]MessageStats, 0, len(index))
	for _, ms := range index {
		sum.Messages = append(sum.Messages, *ms)
	}
	sort.Slice(sum.Messages, func(i, j int) bool {
		a, b := sum.Messages[i], sum.Messages[j]
		if a.Channel != b.Channel {
			return a.Channel < b.Channel
		}
		return a.Name < b.Name
	})
	return sum, nil
}
