package config

// Deployment environments. Staging mirrors production validation so
// misconfiguration surfaces before a release.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// IsProductionLike reports whether env enforces production configuration
// requirements.
func IsProductionLike(env string) bool {
	return env == EnvProduction || env == EnvStaging
}
