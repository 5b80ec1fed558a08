package stats

/*
This file defines all the metrics being collected.   As new metrics are added please follow this pattern.
*/

const (
	/************************* Conductor client metrics **************************/
	/*
		the number of requests sent to the conductor, scoped by operation (load, scale, unload, info)
	*/
	ClientRequestCounter = "requestCounter"

	/*
		the number of requests that failed before a response arrived
	*/
	ClientConnectionErrCounter = "connectionErrCounter"

	/*
		the number of responses with a non 2xx status
	*/
	ClientStatusErrCounter = "statusErrCounter"

	/*
		amount of time between sending a request and reading the full response body
	*/
	ClientRequestLatency_ms = "requestLatency_ms"

	/*
		size in bytes of the last response body read
	*/
	ClientResponseBytesGauge = "responseBytesGauge"

	/************************* Packager metrics **************************/
	/*
		amount of time to stream the source tree into the temporary archive
	*/
	PackagerArchiveLatency_ms = "archiveLatency_ms"

	/*
		amount of time to hash the finished archive
	*/
	PackagerHashLatency_ms = "hashLatency_ms"

	/*
		amount of time to move the archive into the output directory
	*/
	PackagerRenameLatency_ms = "renameLatency_ms"

	/*
		number of tar entries written to the last archive
	*/
	PackagerEntriesGauge = "entriesGauge"

	/*
		size in bytes of the last archive produced
	*/
	PackagerArchiveBytesGauge = "archiveBytesGauge"

	/*
		number of packaging runs that ended in the Failed state
	*/
	PackagerFailureCounter = "failureCounter"
)
