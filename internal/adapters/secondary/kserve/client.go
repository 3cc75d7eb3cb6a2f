package kserve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/config"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

var inferenceServiceGVR = schema.GroupVersionResource{
	Group:    "serving.kserve.io",
	Version:  "v1beta1",
	Resource: "inferenceservices",
}

type kserveClient struct {
	client    dynamic.Interface
	enabled   bool
	inCluster bool
	defaultNS string
}

// NewKServeClient creates a KServe client used to discover model app endpoints
func NewKServeClient(cfg *config.KServeConfig) (ports.KServeClient, error) {
	if !cfg.Enabled {
		return &kserveClient{enabled: false}, nil
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		// Try default kubeconfig location
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return newWithDynamic(client, cfg), nil
}

func newWithDynamic(client dynamic.Interface, cfg *config.KServeConfig) *kserveClient {
	defaultNS := cfg.Namespace
	if defaultNS == "" {
		defaultNS = "model-serving"
	}

	return &kserveClient{
		client:    client,
		enabled:   true,
		inCluster: cfg.InCluster,
		defaultNS: defaultNS,
	}
}

func (c *kserveClient) IsAvailable() bool {
	return c.enabled
}

func (c *kserveClient) GetStatus(ctx context.Context, namespace, name string) (*ports.KServeStatus, error) {
	if !c.enabled {
		return nil, fmt.Errorf("kserve integration disabled")
	}
	if namespace == "" {
		namespace = c.defaultNS
	}

	obj, err := c.client.Resource(inferenceServiceGVR).
		Namespace(namespace).
		Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrInferenceServiceNotFound, namespace, name)
		}
		return nil, fmt.Errorf("get kserve inferenceservice: %w", err)
	}

	return c.parseStatus(obj), nil
}

// ResolveURL returns the URL of a ready InferenceService. Inside the cluster
// the internal address is preferred over the external route.
func (c *kserveClient) ResolveURL(ctx context.Context, namespace, name string) (string, error) {
	status, err := c.GetStatus(ctx, namespace, name)
	if err != nil {
		return "", err
	}
	if !status.Ready {
		if status.Error != "" {
			return "", fmt.Errorf("%w: %s", domain.ErrInferenceServiceNotReady, status.Error)
		}
		return "", domain.ErrInferenceServiceNotReady
	}
	if status.URL == "" {
		return "", fmt.Errorf("%w: no url published", domain.ErrInferenceServiceNotReady)
	}
	return status.URL, nil
}

func (c *kserveClient) parseStatus(obj *unstructured.Unstructured) *ports.KServeStatus {
	status := &ports.KServeStatus{}

	statusMap, found, _ := unstructured.NestedMap(obj.Object, "status")
	if !found {
		return status
	}

	status.URL, _, _ = unstructured.NestedString(statusMap, "url")
	if c.inCluster {
		if addr, ok, _ := unstructured.NestedString(statusMap, "address", "url"); ok && addr != "" {
			status.URL = addr
		}
	}

	// Check conditions for ready state
	conditions, found, _ := unstructured.NestedSlice(statusMap, "conditions")
	if found {
		for _, cond := range conditions {
			condMap, ok := cond.(map[string]interface{})
			if !ok {
				continue
			}
			condType, _ := condMap["type"].(string)
			condStatus, _ := condMap["status"].(string)

			if condType == "Ready" {
				status.Ready = condStatus == "True"
				if condStatus == "False" {
					if msg, ok := condMap["message"].(string); ok {
						status.Error = msg
					}
				}
				break
			}
		}
	}

	return status
}

// Ensure interface compliance
var _ ports.KServeClient = (*kserveClient)(nil)
