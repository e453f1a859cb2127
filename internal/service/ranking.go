package service

import (
	"cmp"
	"slices"

	"github.com/civicpulse/complaint-service/internal/domain"
)

// Every complaint ordering is built from these comparators so the rank tables in
// domain stay the single source of truth. Ties fall through to newest first and
// finally to id, which keeps output stable across backends.

func comparePriority(a, b *domain.Complaint) int {
	return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
}

func compareStatus(a, b *domain.Complaint) int {
	return cmp.Compare(a.Status.Rank(), b.Status.Rank())
}

func compareNewest(a, b *domain.Complaint) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortByPriority orders most urgent first, then newest.
func SortByPriority(complaints []domain.Complaint) {
	slices.SortFunc(complaints, func(a, b domain.Complaint) int {
		if c := comparePriority(&a, &b); c != 0 {
			return c
		}
		return compareNewest(&a, &b)
	})
}

// SortByNewest orders by creation time, newest first.
func SortByNewest(complaints []domain.Complaint) {
	slices.SortFunc(complaints, func(a, b domain.Complaint) int {
		return compareNewest(&a, &b)
	})
}

// SortWorkQueue orders active work first (status rank), then urgency, then newest.
func SortWorkQueue(complaints []domain.Complaint) {
	slices.SortFunc(complaints, func(a, b domain.Complaint) int {
		if c := compareStatus(&a, &b); c != 0 {
			return c
		}
		if c := comparePriority(&a, &b); c != 0 {
			return c
		}
		return compareNewest(&a, &b)
	})
}
