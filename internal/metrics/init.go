package metrics

// Phase and outcome labels pre-populated by InitializeMetrics.
var (
	conversionPhases = []string{"scanning", "waiting", "converting", "done"}
	conversionModes  = []string{"remux", "transcode"}
	strategies       = []string{"remux", "transcode-hw", "transcode-sw"}
	probePurposes    = []string{"duration", "classify", "verify"}
)

// InitializeMetrics pre-populates the expected label combinations so that
// every metric is exported from the first scrape.
func InitializeMetrics(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)

	for _, result := range []string{"hit", "miss"} {
		PlaylistCacheRequests.WithLabelValues(result)
	}

	for _, kind := range []string{"full", "partial", "unsatisfiable", "head"} {
		StreamResponsesTotal.WithLabelValues(kind)
	}

	for _, purpose := range probePurposes {
		ProbeDuration.WithLabelValues(purpose)
		ProbeFailures.WithLabelValues(purpose)
	}

	for _, phase := range conversionPhases {
		ConversionPhase.WithLabelValues(phase)
	}
	for _, mode := range conversionModes {
		ConversionFilesTotal.WithLabelValues(mode, "success")
		ConversionFilesTotal.WithLabelValues(mode, "failure")
	}
	for _, s := range strategies {
		ConversionStrategyRuns.WithLabelValues(s, "success")
		ConversionStrategyRuns.WithLabelValues(s, "failure")
		ConversionJobDuration.WithLabelValues(s)
	}

	for _, op := range []string{"stat", "open"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemRetryDuration.WithLabelValues(op)
	}
}

// SetConversionPhase marks phase as the active conversion phase.
func SetConversionPhase(phase string) {
	for _, p := range conversionPhases {
		v := 0.0
		if p == phase {
			v = 1
		}
		ConversionPhase.WithLabelValues(p).Set(v)
	}
}
