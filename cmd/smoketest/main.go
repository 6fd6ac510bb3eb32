package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, generation can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dataField(body []byte) map[string]interface{} {
	var parsed map[string]interface{}
	json.Unmarshal(body, &parsed)
	if data, ok := parsed["data"].(map[string]interface{}); ok {
		return data
	}
	return nil
}

func main() {
	color.Cyan("🚀 Starting Legal Copilot Pipeline Smoke Test\n")

	// 1. Register a throwaway account
	email := fmt.Sprintf("smoke-%d@example.com", time.Now().Unix())
	color.Yellow("\n1. Register (%s)", email)
	resp, body, err := sendRequest("POST", "/auth/register", "", map[string]interface{}{
		"email":     email,
		"password":  "smoketest123",
		"full_name": "Smoke Test Officer",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 2. Login
	color.Yellow("\n2. Login")
	resp, body, err = sendRequest("POST", "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "smoketest123",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var token string
	if data := dataField(body); data != nil {
		token, _ = data["token"].(string)
	}
	if token == "" {
		color.Red("No token returned, aborting")
		os.Exit(1)
	}

	// 3. Create a session scoped to California
	color.Yellow("\n3. Create Chat Session")
	resp, body, err = sendRequest("POST", "/chat/sessions", token, map[string]interface{}{
		"title": "Smoke test session",
		"jurisdiction": map[string]interface{}{
			"state":    "California",
			"locality": "Los Angeles",
		},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var sessionID string
	if data := dataField(body); data != nil {
		sessionID, _ = data["id"].(string)
	}
	if sessionID == "" {
		color.Red("No session id returned, aborting")
		os.Exit(1)
	}
	fmt.Println("Session:", sessionID)

	// 4. Send a question through the full pipeline
	color.Yellow("\n4. Send Message (full pipeline)")
	resp, body, err = sendRequest("POST", "/chat/message", token, map[string]interface{}{
		"chat_session_id": sessionID,
		"message":         "When do I need to read Miranda rights?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var sendResp map[string]interface{}
	json.Unmarshal(body, &sendResp)
	prettyPrint(sendResp)

	// 5. Read back the history
	color.Yellow("\n5. Get Chat History")
	resp, body, err = sendRequest("GET", "/chat/sessions/"+sessionID+"/history", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var histResp map[string]interface{}
	json.Unmarshal(body, &histResp)
	prettyPrint(histResp)

	// 6. Clean up
	color.Yellow("\n6. Delete Session")
	resp, _, err = sendRequest("DELETE", "/chat/sessions", token, map[string]interface{}{
		"chat_session_id": sessionID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	color.Cyan("\n✅ Smoke test finished")
}
