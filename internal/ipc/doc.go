// Package ipc implements the control socket for the keyscope daemon.
//
// The daemon listens on a unix domain socket, owner-only, under the
// user's runtime directory. The protocol is newline-delimited JSON so
// the socket can be driven from scripts as well as the bundled client:
//
//	request:  {"op":"scope.set","args":{"scope":"editor"}}
//	response: {"ok":true,"data":{"scope":"editor"}}
//	error:    {"ok":false,"error":"unknown op \"bogus\""}
//
// A connection may send any number of requests; each line gets exactly
// one response line. The operation set is defined by the daemon's
// handler, with the standard ops named by the Op constants.
package ipc
