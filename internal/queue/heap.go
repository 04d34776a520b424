package queue

import "github.com/notifyhub/assignment-queue/internal/domain"

// assignmentHeap satisfies heap.Interface. The earliest-due, most urgent
// assignment sits at index 0.
type assignmentHeap []domain.Assignment

func (h assignmentHeap) Len() int           { return len(h) }
func (h assignmentHeap) Less(i, j int) bool { return h[i].Less(h[j]) }
func (h assignmentHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *assignmentHeap) Push(x any) {
	*h = append(*h, x.(domain.Assignment))
}

func (h *assignmentHeap) Pop() any {
	old := *h
	n := len(old)
	a := old[n-1]
	old[n-1] = domain.Assignment{}
	*h = old[:n-1]
	return a
}
