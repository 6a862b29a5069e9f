package logistics

import (
	"sort"

	"github.com/fesgura/mathtrade-logistics-sub000/models"
)

// Destination is a derived grouping of items by delivery target. It is not a
// server entity; it only exists as the output of aggregation.
type Destination struct {
	Location     int
	LocationName string
	TotalItems   int
	ItemsInBox   int
	ItemsReady   int // ready at the organization and not yet boxed
}

// DestinationBuckets partitions the destinations that currently have items:
//
//	Available:   something is ready to pack (>=1 unboxed item received by org)
//	FullyPacked: every item bound there is already in a box
//	NotReady:    nothing bound there has reached the organization yet
//
// A destination in a mixed state (e.g. some items delivered straight to the
// recipient, none waiting) lands in no bucket at all.
type DestinationBuckets struct {
	Available   []Destination
	FullyPacked []Destination
	NotReady    []Destination
}

// AggregateDestinations is a single pass over the item list followed by a
// classification of each accumulated destination. It is pure and must be
// re-run whenever the item list changes; there is no cached state to refresh.
func AggregateDestinations(items []models.Item) DestinationBuckets {
	type tally struct {
		name         string
		total        int
		inBox        int
		readyUnboxed int
		reachedOrg   int
	}

	tallies := make(map[int]*tally)
	order := []int{}
	for i := range items {
		item := &items[i]
		t, ok := tallies[item.Location]
		if !ok {
			t = &tally{name: item.LocationName}
			tallies[item.Location] = t
			order = append(order, item.Location)
		}
		t.total++
		if item.IsBoxed() {
			t.inBox++
		}
		if item.Status >= models.StatusReadyAtOrg {
			t.reachedOrg++
		}
		if item.Boxable() {
			t.readyUnboxed++
		}
	}

	var buckets DestinationBuckets
	for _, location := range order {
		t := tallies[location]
		dest := Destination{
			Location:     location,
			LocationName: t.name,
			TotalItems:   t.total,
			ItemsInBox:   t.inBox,
			ItemsReady:   t.readyUnboxed,
		}
		switch {
		case t.total > 0 && t.inBox == t.total:
			buckets.FullyPacked = append(buckets.FullyPacked, dest)
		case t.readyUnboxed > 0:
			buckets.Available = append(buckets.Available, dest)
		case t.reachedOrg == 0:
			buckets.NotReady = append(buckets.NotReady, dest)
		}
	}

	sortDestinations(buckets.Available)
	sortDestinations(buckets.FullyPacked)
	sortDestinations(buckets.NotReady)
	return buckets
}

func sortDestinations(dests []Destination) {
	sort.Slice(dests, func(i, j int) bool {
		if dests[i].LocationName != dests[j].LocationName {
			return dests[i].LocationName < dests[j].LocationName
		}
		return dests[i].Location < dests[j].Location
	})
}
