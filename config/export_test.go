package config

// ApplyEnvForTest exposes applyEnv.
var ApplyEnvForTest = applyEnv
