//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	requestStream = "stream:project:augment"
	doneStream    = "stream:project:augmented"
)

// Минимальный документ TM: одна задача 17/1412/3520 и геометрия проекта
const sampleDocument = `{
  "projectId": 26,
  "areaOfInterest": {"type": "MultiPolygon", "coordinates": [[[[-2.2,13.4],[-2.1,13.4],[-2.1,13.5],[-2.2,13.4]]]]},
  "tasks": {
    "type": "FeatureCollection",
    "features": [
      {
        "type": "Feature",
        "geometry": {"type": "MultiPolygon", "coordinates": [[[[-2.2,13.4],[-2.1,13.4],[-2.1,13.5],[-2.2,13.4]]]]},
        "properties": {"taskId": 1, "taskX": 1412, "taskY": 3520, "taskZoom": 17}
      }
    ]
  }
}`

type augmentRequest struct {
	RequestID uuid.UUID       `json:"request_id"`
	TMIndex   int64           `json:"tm_index,omitempty"`
	Document  json.RawMessage `json:"document"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	tmIndex := flag.Int64("project", 0, "TM index to sync geometry for (0 - augment only)")
	docPath := flag.String("doc", "", "path to a TM project document (default: built-in sample)")
	flag.Parse()

	document := []byte(sampleDocument)
	if *docPath != "" {
		data, err := os.ReadFile(*docPath)
		if err != nil {
			log.Fatalf("Failed to read document: %v", err)
		}
		document = data
	}

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := augmentRequest{
		RequestID: uuid.New(),
		TMIndex:   *tmIndex,
		Document:  json.RawMessage(document),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: requestStream,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", requestStream)
	fmt.Printf("   Message ID: %s\n", id)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("\nWaiting for response in %s...\n", doneStream)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{doneStream, "0"},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					raw, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var response map[string]interface{}
					if err := json.Unmarshal([]byte(raw), &response); err != nil {
						continue
					}

					if response["request_id"] != event.RequestID.String() {
						continue
					}

					pretty, _ := json.MarshalIndent(response, "", "  ")
					fmt.Printf("\nResponse received:\n%s\n", pretty)
					return
				}
			}
		}
	}
}
