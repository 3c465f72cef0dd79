package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID, minPriority string) *Slack {
	return &Slack{
		botToken:    botToken,
		channelID:   channelID,
		minPriority: minPriority,
	}
}

func NewRepositoryForTest(backend, profile, dir string) *Repository {
	return &Repository{backend: backend, profile: profile, dir: dir}
}

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

func NewAPIForTest(baseURL string) *API {
	return &API{baseURL: baseURL}
}

func NewExportForTest(dir, bucket string) *Export {
	return &Export{dir: dir, bucket: bucket}
}

func NewAppForTest(path string) *App {
	return &App{path: path}
}
