package portal

/*
config holds the values shared by the portal client packages:
- common constants - e.g. the default api root and the request id header
- common maps - used to validate enum values supplied through the environment or flags
*/

// common constants
const (
	DefaultAPIOrigin = "https://vvgo.org"
	DefaultAPITarget = "/api/v1"
	RequestIDHeader  = "X-Request-Id"
	TokenFileName    = "token"
	ConfigDirName    = "vvgo"
)

// common maps - used to validate enum values
var ValidEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"staging": true,
	"prod":    true,
}

var ValidOutputFormats = map[string]bool{
	"json":  true,
	"table": true,
}
