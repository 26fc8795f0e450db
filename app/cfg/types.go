package cfg

type Cfg struct {
	// Storage configuration
	DBPath   string
	CacheDir string

	// Application configuration
	SourcesFile       string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	FeedTTL           int
	FetchTimeout      int
	APIAccessKey      string

	// Remote homework source (optional)
	RemoteURL   string
	RemoteToken string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
