// Package http provides the JSON response helpers used by the container's
// diagnostic routes.
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)           // raw JSON with status
//	res.Success(data)             // 200 {"data": ...}
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.Fail(err)                 // container error → 404 / 400 / 500
package http
