package occlusion

// Engine counters.
type Stats struct {
	// Lifecycle.
	RegionsPrepared uint64
	TreesBuilt      uint64

	// Cull tests performed and how many of them culled.
	CullTests uint64
	Culled    uint64

	// Fragments handed to SampleFragment.
	FragmentsSampled uint64

	// Point tests performed at leaves and how many of them hit.
	SampleTests uint64
	SampleHits  uint64

	// Hits that replaced a sample's nearest opaque hit.
	OpaqueUpdates uint64

	// Hits appended as partial (non-opaque) contributions.
	PartialHits uint64
}

// Accumulate the counters of other.
func (s *Stats) Add(other Stats) {
	s.RegionsPrepared += other.RegionsPrepared
	s.TreesBuilt += other.TreesBuilt
	s.CullTests += other.CullTests
	s.Culled += other.Culled
	s.FragmentsSampled += other.FragmentsSampled
	s.SampleTests += other.SampleTests
	s.SampleHits += other.SampleHits
	s.OpaqueUpdates += other.OpaqueUpdates
	s.PartialHits += other.PartialHits
}

// Get the fraction of cull tests that culled.
func (s Stats) CullRate() float64 {
	if s.CullTests == 0 {
		return 0
	}
	return float64(s.Culled) / float64(s.CullTests)
}

// Get the fraction of point tests that hit.
func (s Stats) HitRate() float64 {
	if s.SampleTests == 0 {
		return 0
	}
	return float64(s.SampleHits) / float64(s.SampleTests)
}
