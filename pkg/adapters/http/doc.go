/*
Package http exposes hosted state machines over a JSON API.

Routes:

	POST   /machines                    create from a YAML table (empty body: word counter)
	GET    /machines                    list machines
	GET    /machines/{id}               snapshot
	DELETE /machines/{id}               drop the machine
	POST   /machines/{id}/events        {"events": [...]}, one cycle per call
	GET    /machines/{id}/read/{action} dispatch a read-style action
	GET    /machines/{id}/stream        SSE feed of snapshots
	GET    /metrics                     Prometheus
*/
package http
