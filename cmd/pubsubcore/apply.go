package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cuemby/pubsubcore/pkg/model"
	"github.com/cuemby/pubsubcore/pkg/pubsub"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a configuration file to a freshly built manager",
	Long: `Apply a YAML document stream of pubsubcore resources.

Examples:
  # Apply a connection and its writer group in one file
  pubsubcore apply -f topology.yaml`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "YAML file to apply (required)")
	_ = applyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(applyCmd)
}

// resource is a generic pubsubcore resource document, in the same spirit as
// a Kind-dispatched apply manifest: Spec is decoded loosely and picked apart
// by getString/getInt/getBool/getDuration, so each resource kind only reads
// the keys it understands.
type resource struct {
	Kind     string                 `yaml:"kind"`
	Metadata resourceMetadata       `yaml:"metadata"`
	Spec     map[string]interface{} `yaml:"spec"`
}

type resourceMetadata struct {
	Name string `yaml:"name"`
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")

	mgr := newManager()
	defer mgr.Destroy()

	return applyFile(mgr, filename)
}

// decodeResources reads a YAML document stream from path into a flat list
// of resources, in apply order.
func decodeResources(path string) ([]resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	var resources []resource
	dec := yaml.NewDecoder(f)
	for {
		var r resource
		if err := dec.Decode(&r); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, nil
}

// ids tracks the assigned Connection/WriterGroup/ReaderGroup ids by resource
// name, so a later document in the same stream (e.g. a WriterGroup) can
// reference an earlier one (its owning Connection) by name.
type ids struct {
	connections  map[string]uint32
	writerGroups map[string]uint32
	readerGroups map[string]uint32
}

// applyFile decodes the resource document stream at path and applies each
// resource, in order, to mgr.
func applyFile(mgr *pubsub.Manager, path string) error {
	resources, err := decodeResources(path)
	if err != nil {
		return err
	}

	reg := &ids{
		connections:  make(map[string]uint32),
		writerGroups: make(map[string]uint32),
		readerGroups: make(map[string]uint32),
	}

	for _, r := range resources {
		if err := applyResource(mgr, reg, &r); err != nil {
			return fmt.Errorf("%s %q: %w", r.Kind, r.Metadata.Name, err)
		}
	}
	return nil
}

func applyResource(mgr *pubsub.Manager, reg *ids, r *resource) error {
	switch r.Kind {
	case "Connection":
		return applyConnection(mgr, reg, r)
	case "WriterGroup":
		return applyWriterGroup(mgr, reg, r)
	case "DataSetWriter":
		return applyDataSetWriter(mgr, reg, r)
	case "ReaderGroup":
		return applyReaderGroup(mgr, reg, r)
	case "DataSetReader":
		return applyDataSetReader(mgr, reg, r)
	case "PublishedDataSet":
		return applyPublishedDataSet(mgr, r)
	default:
		return fmt.Errorf("unsupported resource kind: %s", r.Kind)
	}
}

func applyConnection(mgr *pubsub.Manager, reg *ids, r *resource) error {
	name := r.Metadata.Name
	profile := getString(r.Spec, "transportProfileURI", model.ProfileUDPUADP)
	url := getString(r.Spec, "url", "")

	id, err := mgr.AddConnection(&model.ConnectionConfig{
		Name:                name,
		TransportProfileURI: profile,
		Address:             model.Address{URL: url},
		Enabled:             getBool(r.Spec, "enabled", true),
	})
	if err != nil {
		return err
	}
	reg.connections[name] = id
	fmt.Printf("connection applied: %s (id=%d)\n", name, id)
	return nil
}

func applyWriterGroup(mgr *pubsub.Manager, reg *ids, r *resource) error {
	name := r.Metadata.Name
	connName := getString(r.Spec, "connection", "")
	connID, ok := reg.connections[connName]
	if !ok {
		return fmt.Errorf("unknown connection %q (apply it earlier in the file)", connName)
	}

	id, err := mgr.AddWriterGroup(connID, &model.WriterGroupConfig{
		Name:               name,
		WriterGroupID:      uint16(getInt(r.Spec, "writerGroupId", 0)),
		PublishingInterval: getDuration(r.Spec, "publishingInterval"),
	})
	if err != nil {
		return err
	}
	reg.writerGroups[name] = id
	fmt.Printf("writer group applied: %s (id=%d, connection=%s)\n", name, id, connName)
	return nil
}

func applyDataSetWriter(mgr *pubsub.Manager, reg *ids, r *resource) error {
	name := r.Metadata.Name
	wgName := getString(r.Spec, "writerGroup", "")
	wgID, ok := reg.writerGroups[wgName]
	if !ok {
		return fmt.Errorf("unknown writer group %q (apply it earlier in the file)", wgName)
	}

	id, err := mgr.AddDataSetWriter(wgID, &model.DataSetWriterConfig{
		Name:            name,
		DataSetWriterID: uint16(getInt(r.Spec, "dataSetWriterId", 0)),
	})
	if err != nil {
		return err
	}
	fmt.Printf("dataset writer applied: %s (id=%d, writerGroup=%s)\n", name, id, wgName)
	return nil
}

func applyReaderGroup(mgr *pubsub.Manager, reg *ids, r *resource) error {
	name := r.Metadata.Name
	connName := getString(r.Spec, "connection", "")
	connID, ok := reg.connections[connName]
	if !ok {
		return fmt.Errorf("unknown connection %q (apply it earlier in the file)", connName)
	}

	id, err := mgr.AddReaderGroup(connID, &model.ReaderGroupConfig{Name: name})
	if err != nil {
		return err
	}
	reg.readerGroups[name] = id
	fmt.Printf("reader group applied: %s (id=%d, connection=%s)\n", name, id, connName)
	return nil
}

func applyDataSetReader(mgr *pubsub.Manager, reg *ids, r *resource) error {
	name := r.Metadata.Name
	rgName := getString(r.Spec, "readerGroup", "")
	rgID, ok := reg.readerGroups[rgName]
	if !ok {
		return fmt.Errorf("unknown reader group %q (apply it earlier in the file)", rgName)
	}

	id, err := mgr.AddDataSetReader(rgID, &model.DataSetReaderConfig{
		Name:                  name,
		MessageReceiveTimeout: getDuration(r.Spec, "messageReceiveTimeout"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("dataset reader applied: %s (id=%d, readerGroup=%s)\n", name, id, rgName)
	return nil
}

func applyPublishedDataSet(mgr *pubsub.Manager, r *resource) error {
	name := r.Metadata.Name

	id, meta, err := mgr.AddPublishedDataSet(&model.PublishedDataSetConfig{
		Name: name,
		Type: model.DataSetTypePublishedItems,
	})
	if err != nil {
		return err
	}
	fmt.Printf("published dataset applied: %s (id=%d, configurationVersion=%d.%d)\n",
		name, id, meta.ConfigurationVersion.Major, meta.ConfigurationVersion.Minor)
	return nil
}

// Helper functions, in the teacher's getString/getInt style.
func getString(m map[string]interface{}, key, defaultValue string) string {
	if v, ok := m[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return defaultValue
}

func getInt(m map[string]interface{}, key string, defaultValue int) int {
	if v, ok := m[key]; ok {
		switch val := v.(type) {
		case int:
			return val
		case float64:
			return int(val)
		}
	}
	return defaultValue
}

func getBool(m map[string]interface{}, key string, defaultValue bool) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultValue
}

func getDuration(m map[string]interface{}, key string) time.Duration {
	ms := getInt(m, key, 0)
	return time.Duration(ms) * time.Millisecond
}
