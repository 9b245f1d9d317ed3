package stellate

// Version is the library version. It is sent in the User-Agent of the
// default sender.
const Version = "0.1.0"

// UserAgent is the User-Agent of the default sender.
const UserAgent = "stellate-go/" + Version
