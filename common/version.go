package common

// Version is the solmint release version.
const Version = "v0.2.1"
