package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/burrow-social/burrow/activitypub"
	"github.com/burrow-social/burrow/cli"
	"github.com/burrow-social/burrow/db"
	"github.com/burrow-social/burrow/federation"
	"github.com/burrow-social/burrow/util"
	"github.com/burrow-social/burrow/web"
)

func main() {
	version := flag.Bool("v", false, "print version and exit")
	flag.Parse()
	if *version {
		fmt.Println(util.GetNameAndVersion())
		os.Exit(0)
	}

	conf, err := util.ReadConf()
	if err != nil {
		log.Fatalln(err)
	}

	database, err := db.Open(util.ResolveFilePath(conf.Conf.DatabasePath))
	if err != nil {
		log.Fatalln(err)
	}
	defer database.Close()

	cfg := federation.NewConfig(conf)
	outbound := federation.NewOutbound(database, cfg, activitypub.NewQueueDeliverer(database))

	// Admin commands run against the same database, then exit.
	if flag.NArg() > 0 {
		handler := cli.NewHandler(os.Stdout, database, outbound, cfg)
		if err := handler.Execute(flag.Args()); err != nil {
			os.Exit(1)
		}
		return
	}

	fmt.Println("Configuration: ")
	fmt.Println(util.PrettyPrint(conf))

	dispatcher := federation.NewDispatcher(database, cfg, federation.LogNotifier{})
	server := web.NewServer(database, dispatcher, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if conf.Conf.WithFederation {
		worker := activitypub.NewDeliveryWorker(database, nil)
		worker.Start(ctx)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := web.Serve(server, conf); err != nil {
			log.Fatalln(err)
		}
	}()

	<-done
	log.Println("Shutting down")
}
