package common

// ContentTypeJSON is the media type used by the REST API for both requests
// and responses.
const ContentTypeJSON = "application/json"

// LogsPath is the collection path of the REST API.
const LogsPath = "/logs"
