package timeline

import (
	"fmt"
	"sort"

	"markfind/internal/services"
)

// Set is the working arena of clips for one editing session. Clips are
// addressed by their stable identifiers and edits are expressed as
// replace-set transactions, so callers never hold aliases into a mutated
// slice. The set assumes a single writer; concurrent editors must serialize
// externally.
type Set struct {
	clips map[int64]*Clip
	// order preserves insertion sequence for unassigned clips, which all
	// share the sentinel identity and cannot be addressed by ID.
	order []*Clip
}

// NewSet builds an arena over the given clips. Assigned identifiers must be
// unique.
func NewSet(clips []*Clip) (*Set, error) {
	set := &Set{clips: make(map[int64]*Clip, len(clips))}
	for _, clip := range clips {
		if clip == nil {
			continue
		}
		if clip.Assigned() {
			if _, exists := set.clips[clip.ID]; exists {
				return nil, services.Wrap(services.ErrValidation, "timeline", "new set",
					fmt.Sprintf("duplicate clip id %d", clip.ID), nil)
			}
			set.clips[clip.ID] = clip
		}
		set.order = append(set.order, clip)
	}
	return set, nil
}

// Clips returns the working set ordered by start time.
func (s *Set) Clips() []*Clip {
	out := append([]*Clip(nil), s.order...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Len returns the number of clips in the working set.
func (s *Set) Len() int {
	return len(s.order)
}

// Get returns the clip with the given assigned identifier.
func (s *Set) Get(id int64) (*Clip, bool) {
	clip, ok := s.clips[id]
	return clip, ok
}

// Merge replaces the clips named by ids with a single clip spanning their
// envelope: (min start, max end). The ids must be non-empty, strictly
// ascending, present in the set, and all belong to the same video.
//
// The envelope is taken as-is: the selection is not checked for temporal
// contiguity, so merging non-adjacent clips produces a clip that also covers
// the gap between them.
func (s *Set) Merge(ids []int64) (*Clip, error) {
	if len(ids) == 0 {
		return nil, services.Wrap(services.ErrValidation, "timeline", "merge", "clip ids must be a non-empty ascending list", nil)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			return nil, services.Wrap(services.ErrValidation, "timeline", "merge", "clip ids must be strictly ascending", nil)
		}
	}

	selected := make([]*Clip, 0, len(ids))
	for _, id := range ids {
		clip, ok := s.clips[id]
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "timeline", "merge", fmt.Sprintf("clip id %d not found", id), nil)
		}
		selected = append(selected, clip)
	}

	videoID := selected[0].VideoID
	for _, clip := range selected[1:] {
		if clip.VideoID != videoID {
			return nil, services.Wrap(services.ErrValidation, "timeline", "merge", "clips must belong to the same video", nil)
		}
	}

	start := selected[0].Start
	end := selected[0].End
	for _, clip := range selected[1:] {
		if clip.Start < start {
			start = clip.Start
		}
		if clip.End > end {
			end = clip.End
		}
	}

	merged := &Clip{ID: UnassignedID, VideoID: videoID, Start: start, End: end}
	s.replace(ids, []*Clip{merged})
	return merged, nil
}

// Split replaces the clip with the given id by two clips meeting at
// splitTime, which must lie strictly between the clip's start and end.
func (s *Set) Split(id int64, splitTime float64) (*Clip, *Clip, error) {
	target, ok := s.clips[id]
	if !ok {
		return nil, nil, services.Wrap(services.ErrValidation, "timeline", "split", fmt.Sprintf("clip id %d not found", id), nil)
	}
	if splitTime <= target.Start || splitTime >= target.End {
		return nil, nil, services.Wrap(services.ErrValidation, "timeline", "split", "split time must lie strictly within the clip", nil)
	}

	head := &Clip{ID: UnassignedID, VideoID: target.VideoID, Start: target.Start, End: splitTime}
	tail := &Clip{ID: UnassignedID, VideoID: target.VideoID, Start: splitTime, End: target.End}
	s.replace([]int64{id}, []*Clip{head, tail})
	return head, tail, nil
}

// Bind records an identity assigned by the store for a previously
// unassigned clip.
func (s *Set) Bind(clip *Clip, id int64) error {
	if clip == nil || id == UnassignedID {
		return services.Wrap(services.ErrValidation, "timeline", "bind", "clip and id required", nil)
	}
	if _, exists := s.clips[id]; exists {
		return services.Wrap(services.ErrValidation, "timeline", "bind", fmt.Sprintf("clip id %d already present", id), nil)
	}
	clip.ID = id
	s.clips[id] = clip
	return nil
}

func (s *Set) replace(removeIDs []int64, add []*Clip) {
	removeSet := make(map[int64]struct{}, len(removeIDs))
	for _, id := range removeIDs {
		removeSet[id] = struct{}{}
		delete(s.clips, id)
	}

	kept := s.order[:0]
	for _, clip := range s.order {
		if clip.Assigned() {
			if _, remove := removeSet[clip.ID]; remove {
				continue
			}
		}
		kept = append(kept, clip)
	}
	s.order = append(kept, add...)

	for _, clip := range add {
		if clip.Assigned() {
			s.clips[clip.ID] = clip
		}
	}
}
