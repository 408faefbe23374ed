package constants

// Job store and scheduling constants.

// JobsFile is the filename used to persist job definitions.
const JobsFile = "jobs.jsonl"

// DefaultPreviewCount is how many instants `next` prints when neither the
// flag nor the configuration says otherwise.
const DefaultPreviewCount = 10

// EnvPrefix prefixes the environment variables exported to job commands.
const EnvPrefix = "CRONEX_"
