package main

import "gamerx/internal/cmd"

// @title           GamerX API
// @version         1.0
// @description     Storefront API for the GamerX gaming gear shop: accounts, store catalogs, orders with mock payments and reviews.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
