package model

// AppInfo identifies the analysed application when an APK was supplied.
type AppInfo struct {
	PackageName string
	VersionName string
	VersionCode int32
}

// Stats summarises one run for the Overview sheet and the database export.
type Stats struct {
	CandidateClasses int // classes matching the operation descriptor shape
	RetainedClasses  int // candidates with at least one argument set

	DataClassConstructors   int
	NoArgConstructors       int
	LooseStringConstructors int
	UnknownConstructors     int

	DocumentsScanned int
	DocumentsFailed  int
	ClientIDValues   int // distinct OAuth client id values observed
}

// Report bundles the result with everything the exporters render around it.
type Report struct {
	Result       *AnalysisResult
	App          AppInfo
	Stats        Stats
	AnalysisDate string
	Digest       string
}

// NewReport computes the digest of result and wraps it.
func NewReport(result *AnalysisResult, stats Stats, analysisDate string) (*Report, error) {
	digest, err := result.Digest()
	if err != nil {
		return nil, err
	}
	return &Report{
		Result:       result,
		Stats:        stats,
		AnalysisDate: analysisDate,
		Digest:       digest,
	}, nil
}

// TotalConstructors counts classified constructors over all shapes.
func (s Stats) TotalConstructors() int {
	return s.DataClassConstructors + s.NoArgConstructors + s.LooseStringConstructors + s.UnknownConstructors
}
