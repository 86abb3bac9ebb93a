//go:build lambda
// +build lambda

package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/davecgh/go-spew/spew"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/server"
)

var adapter *ginadapter.GinLambda

func init() {
	router := gin.Default()

	server.InitializeHandlers()
	server.InitializeRoutes(router)

	adapter = ginadapter.New(router)
}

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.Debug("Handling API Gateway request",
		zap.String("method", req.HTTPMethod),
		zap.String("path", req.Path),
		zap.Any("raw", spew.Sdump(req)),
	)

	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	defer logger.Sync()
	lambda.Start(handleRequest)
}
