package marl_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/marl"
)

// Example_basic demonstrates how to initialize a content root, save a record,
// and read it back.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "marl-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	service, err := marl.New(tmpDir)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 1. Save a record
	page := service.NewModel("page", marl.Attributes{
		"id":      "hello-world",
		"title":   "Hello World",
		"content": "This is my first record in Marl.",
	})
	if err := service.SaveModel(ctx, page); err != nil {
		log.Fatal(err)
	}

	// 2. Read it back
	found, err := service.FindModel(ctx, "page", "hello-world")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found record: %v\n", found.PrimaryKey())
	// Output:
	// Found record: hello-world
}

// ExampleNewTypedRepository demonstrates the generic typed wrapper.
func ExampleNewTypedRepository() {
	tmpDir, err := os.MkdirTemp("", "marl-typed-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	type Task struct {
		ID    string `json:"id,omitempty"`
		Title string `json:"title"`
		Done  bool   `json:"done"`
	}

	store, err := marl.Init(tmpDir, marl.WithGenerateIDs(true))
	if err != nil {
		log.Fatal(err)
	}
	tasks := marl.NewTypedRepository[Task]("task", store)

	ctx := context.Background()
	m, err := tasks.New(Task{Title: "Write docs"})
	if err != nil {
		log.Fatal(err)
	}
	if err := tasks.Save(ctx, m); err != nil {
		log.Fatal(err)
	}

	got, err := tasks.Get(ctx, m.Data.ID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Task: %s (done=%v)\n", got.Data.Title, got.Data.Done)
	// Output:
	// Task: Write docs (done=false)
}
