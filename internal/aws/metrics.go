package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// DefaultMetricsNamespace is the CloudWatch namespace used when none is configured.
const DefaultMetricsNamespace = "StorefrontPolicies"

// PolicyViewsMetric counts served policy pages.
const PolicyViewsMetric = "PolicyViews"

// Metrics emits CloudWatch metrics for policy pages.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

// NewMetrics returns a Metrics writing to namespace.
func NewMetrics(cw CloudWatchAPI, namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}
	return &Metrics{CloudWatch: cw, Namespace: namespace}
}

// RecordPolicyView adds one PolicyViews data point for policy and language.
// An empty language is reported as "default".
func (m *Metrics) RecordPolicyView(ctx context.Context, policy, language string, at time.Time) error {
	if language == "" {
		language = "default"
	}
	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: awsString(m.Namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString(PolicyViewsMetric),
				Timestamp:  &at,
				Unit:       cwtypes.StandardUnitCount,
				Value:      float64Ptr(1),
				Dimensions: []cwtypes.Dimension{
					{Name: awsString("Policy"), Value: awsString(policy)},
					{Name: awsString("Language"), Value: awsString(language)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

func float64Ptr(f float64) *float64 { return &f }
