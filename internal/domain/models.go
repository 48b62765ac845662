package domain

// DisplayInfo is how a database appears in the tree view
type DisplayInfo struct {
	Label   string
	Icon    string // selected marker, empty when not current
	Tooltip string // full snapshot root path
}
