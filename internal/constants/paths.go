package constants

// DefaultEnvPath is the default path to the .env file
const DefaultEnvPath = "./.env"

// DefaultConfigPath is the default path to the config.toml file
const DefaultConfigPath = "./config.toml"

// DefaultJobsPath is the default location of the job store
const DefaultJobsPath = "~/.cronex/" + JobsFile
