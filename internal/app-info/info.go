package app_info

// NAME the application name
const NAME = "portprobe"

// VERSION the current application version
const VERSION = "v0.1.0"
