package metrics

// Config defines settings for pipeline metrics.
type Config struct {
	// TextfilePath, when set, receives a Prometheus text exposition dump at
	// the end of each run.
	TextfilePath string `json:"textfile_path"`
}
