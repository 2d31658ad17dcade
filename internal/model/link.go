package model

// LinkID is a vertex identity in the Linked Effects Manager's undirected
// graph (see internal/links). It is backed by a UUID but typed distinctly so
// model code never has to import the uuid package directly.
type LinkID string

// NoLink is the zero LinkID, meaning "not yet linked to anything".
const NoLink LinkID = ""
