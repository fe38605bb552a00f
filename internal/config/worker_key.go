package config

// workerKey namespaces the redis keys shared between the registry's queued
// archiver and the archive retry worker.
type workerKey struct {
	// ArchiveRetryQueue holds JSON archive records whose primary write
	// failed and should be retried.
	ArchiveRetryQueue string
}

// WorkerKey is the shared redis key set.
var WorkerKey = workerKey{
	ArchiveRetryQueue: "archive_retry_queue",
}
