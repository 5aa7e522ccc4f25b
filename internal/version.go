package internal

// Version is the signreel release version
const Version = "0.3.0"
