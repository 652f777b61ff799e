package handler

import "github.com/labstack/echo/v4"

// actingAccountID extracts the account id injected by the Auth middleware.
// Routes using it are always registered behind Auth, so zero only occurs in
// misconfigured tests and then fails the id validation downstream.
func actingAccountID(c echo.Context) int64 {
	id, _ := c.Get("account_id").(int64)
	return id
}
