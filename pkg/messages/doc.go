// Package messages holds the decoders for the message shapes a cable server
// pushes to a subscription.
//
// Every decoder is pure: it inspects a raw JSON body and either extracts a
// typed payload or reports that the body does not have its shape. Malformed
// JSON never panics and never errors, it just fails to decode.
//
// Shapes:
//
//	ping    {"type": "ping", "message"?: number}
//	error   {"error": string, ...}
//	create  {"create": <any non-null>}
//	update  {"update": <any non-null>}
//	delete  {"destroy": <any non-null>}
package messages
