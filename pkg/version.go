package moodlog

// Version is the current release of moodlog.
const Version = "0.1.0"
