package api

import (
	"context"
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"backoffice/internal/domain"
	"backoffice/internal/middleware"

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/sirupsen/logrus"
)

// entityStore is the repository surface shared by every entity route.
// T is the stored row, V the joined view returned on reads.
type entityStore[T any, V any] interface {
	Create(ctx context.Context, row *T) error
	List(ctx context.Context) ([]V, error)
	Get(ctx context.Context, id uint) (*V, error)
	Update(ctx context.Context, id uint, row *T) error
	Delete(ctx context.Context, id uint) error
}

// payload is a request body that validates itself into a row
type payload[T any] interface {
	toModel() (*T, error)
}

type identified interface {
	GetID() uint
}

// parseID reads a positive integer path parameter
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.Validation("Invalid " + name)
	}
	return uint(id), nil
}

// registerEntity mounts list/create/get/update/delete for one entity under path
func registerEntity[T any, V any, P payload[T]](g *gin.RouterGroup, path, name string, s entityStore[T, V]) {
	g.GET(path, listHandler[T, V](s))
	g.POST(path, createHandler[T, V, P](s, name))
	g.GET(path+"/:id", getHandler[T, V](s))
	g.PUT(path+"/:id", updateHandler[T, V, P](s, name))
	g.DELETE(path+"/:id", deleteHandler[T, V](s, name))
}

func listHandler[T any, V any](s entityStore[T, V]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := s.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func getHandler[T any, V any](s entityStore[T, V]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		row, err := s.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func createHandler[T any, V any, P payload[T]](s entityStore[T, V], name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req P // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		row, err := req.toModel()
		if err != nil {
			respondError(c, err)
			return
		}
		if err := s.Create(c.Request.Context(), row); err != nil {
			respondError(c, err)
			return
		}
		var id uint
		if r, ok := any(row).(identified); ok {
			id = r.GetID()
		}
		middleware.Logger(c).WithFields(logrus.Fields{"entity": name, "id": id}).Info("Record created")
		c.JSON(http.StatusCreated, gin.H{"id": id, "message": name + " created successfully"})
	}
}

func updateHandler[T any, V any, P payload[T]](s entityStore[T, V], name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		var req P
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		row, err := req.toModel()
		if err != nil {
			respondError(c, err)
			return
		}
		if err := s.Update(c.Request.Context(), id, row); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": name + " updated successfully"})
	}
}

func deleteHandler[T any, V any](s entityStore[T, V], name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		if err := s.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		middleware.Logger(c).WithFields(logrus.Fields{"entity": name, "id": id}).Info("Record deleted")
		c.JSON(http.StatusOK, gin.H{"message": name + " deleted successfully"})
	}
}
