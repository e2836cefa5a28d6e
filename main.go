package main

import (
	"fingnet-server/setup"
)

func main() {
	cfg := setup.MustLoadConfig()
	storage := setup.MustInitStorage(cfg)
	setup.StartServer(cfg, storage)
}
