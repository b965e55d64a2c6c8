package internal

// Version is the cmdref release version
const Version = "0.4.1"
