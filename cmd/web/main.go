package main

import "footwork_backend/internal/app"

func main() {
	app.Run()
}
