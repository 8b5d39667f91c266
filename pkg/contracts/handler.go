package contracts

import "github.com/julienschmidt/httprouter"

// Handler is any component that mounts routes on a router.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
