package flasharray

const (
	// REST API version this client speaks. 1.x is the oldest surface
	// that carries host and wwnlist operations and the widest deployed.
	apiVersion = "1.12"

	apiTokenPath = "/auth/apitoken"
	sessionPath  = "/auth/session"
	hostPath     = "/host/"
)
