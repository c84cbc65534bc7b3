package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus-qen/a1bridge/internal/a1"
	"github.com/marcus-qen/a1bridge/internal/bridge"
	"github.com/marcus-qen/a1bridge/internal/supervision"
)

func newTypesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the policy types known by the RIC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client()
			if err != nil {
				return err
			}
			ids, err := client.PolicyTypeIDs(cmd.Context())
			if err != nil {
				return err
			}
			return o.printer().list("POLICY TYPE", ids)
		},
	}
}

func newSchemaCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "schema <policy-type>",
		Short:   "Show the create schema of a policy type",
		Example: "a1ctl schema STD_1 --output yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client()
			if err != nil {
				return err
			}
			schema, err := client.PolicyTypeSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return o.printer().document(schema)
		},
	}
}

func newPoliciesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List every policy instance of every type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client()
			if err != nil {
				return err
			}
			ids, err := client.PolicyIDs(cmd.Context())
			if err != nil {
				return err
			}
			return o.printer().list("POLICY", ids)
		},
	}
}

func newPutCmd(o *options) *cobra.Command {
	var (
		file      string
		notifyURL string
		owner     string
	)
	cmd := &cobra.Command{
		Use:     "put <policy-type> <policy-id>",
		Short:   "Create or replace a policy instance",
		Example: "a1ctl put STD_1 policy1 --file policy.json --notify https://sme.example.com/status",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readPolicyFile(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			client, err := o.client()
			if err != nil {
				return err
			}
			resp, err := client.PutPolicy(cmd.Context(), a1.Policy{
				ID:                    args[1],
				Type:                  a1.PolicyType{ID: args[0]},
				JSON:                  body,
				OwnerServiceID:        owner,
				StatusNotificationURI: notifyURL,
			})
			if err != nil {
				return err
			}
			return o.printer().result(fmt.Sprintf("policy %s stored", args[1]), resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "file holding the policy JSON, - for stdin")
	cmd.Flags().StringVar(&notifyURL, "notify", "", "URL the RIC posts status changes to")
	cmd.Flags().StringVar(&owner, "owner", "a1ctl", "owner service id recorded for the policy")
	return cmd
}

func newDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <policy-type> <policy-id>",
		Short: "Delete a policy instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client()
			if err != nil {
				return err
			}
			resp, err := client.DeletePolicy(cmd.Context(), a1.Policy{ID: args[1], Type: a1.PolicyType{ID: args[0]}})
			if err != nil {
				return err
			}
			return o.printer().result(fmt.Sprintf("policy %s deleted", args[1]), resp)
		},
	}
}

func newDeleteAllCmd(o *options) *cobra.Command {
	var except []string
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every policy instance except the given ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client()
			if err != nil {
				return err
			}
			deleted, err := client.DeleteAllPolicies(cmd.Context(), a1.NewIDSet(except...))
			if err != nil {
				return err
			}
			return o.printer().list("DELETED", deleted)
		},
	}
	cmd.Flags().StringSliceVar(&except, "except", nil, "policy ids to keep (comma separated)")
	return cmd
}

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status <policy-type> <policy-id>",
		Short: "Show the enforcement status of a policy instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client()
			if err != nil {
				return err
			}
			status, err := client.PolicyStatus(cmd.Context(), a1.Policy{ID: args[1], Type: a1.PolicyType{ID: args[0]}})
			if err != nil {
				return err
			}
			return o.printer().document(status)
		},
	}
}

func newVersionCmd(o *options) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the a1ctl version and the RIC's protocol version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			}
			if !offline {
				client, err := o.client()
				if err != nil {
					return err
				}
				protocol, err := client.ProtocolVersion(cmd.Context())
				if err != nil {
					return err
				}
				info["protocol"] = string(protocol)
			}

			if o.output != formatText {
				return o.printer().value(info)
			}
			fmt.Fprintf(o.stdout, "a1ctl %s (commit: %s, built: %s)\n", version, commit, date)
			if p, ok := info["protocol"]; ok {
				fmt.Fprintf(o.stdout, "protocol: %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "do not contact the RIC")
	return cmd
}

func newRicsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rics",
		Short: "List the configured RICs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			views := make([]ricView, 0, len(cfg.Rics))
			for _, ric := range cfg.Rics {
				view := ricView{
					ID:                ric.ID,
					BaseURL:           ric.BaseURL,
					Adapter:           ric.Adapter,
					Protocol:          ric.Protocol,
					Concurrency:       ric.Concurrency,
					ManagedElementIDs: ric.ManagedElementIDs,
				}
				if view.Adapter == "" {
					view.Adapter = a1.AdapterMediator
				}
				if ric.Controller != nil {
					view.Controller = ric.Controller.Name
				}
				views = append(views, view)
			}
			if o.output != formatText {
				return o.printer().value(views)
			}

			rows := make([][]string, 0, len(views))
			for _, v := range views {
				controller := v.Controller
				if controller == "" {
					controller = "-"
				}
				rows = append(rows, []string{v.ID, v.BaseURL, v.Adapter, controller, strconv.Itoa(v.Concurrency)})
			}
			RenderTable(o.stdout, []string{"ID", "URL", "ADAPTER", "CONTROLLER", "CONCURRENCY"}, rows)
			return nil
		},
	}
}

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one supervision sweep over every configured RIC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			rics, err := o.builder(cfg).BuildAll(cfg.Rics)
			if err != nil {
				return err
			}
			sup, err := supervision.New(bridge.Targets(rics), supervision.Options{
				Schedule: cfg.Supervision.Schedule,
				Timeout:  cfg.Supervision.Timeout,
			}, o.logger())
			if err != nil {
				return err
			}

			statuses := sup.RunOnce(cmd.Context(), supervision.TriggerManual)
			if o.output != formatText {
				if err := o.printer().value(statuses); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(statuses))
				for _, st := range statuses {
					rows = append(rows, []string{
						st.RicID,
						availability(st.Available),
						string(st.Protocol),
						strconv.Itoa(st.PolicyTypes),
						strconv.Itoa(st.Policies),
						Truncate(st.Error, 60),
					})
				}
				RenderTable(o.stdout, []string{"RIC", "STATE", "PROTOCOL", "TYPES", "POLICIES", "ERROR"}, rows)
			}

			if !sup.Healthy() {
				return fmt.Errorf("one or more rics are unavailable")
			}
			return nil
		},
	}
}

func availability(ok bool) string {
	if ok {
		return ColorState("available")
	}
	return ColorState("unavailable")
}

// ricView is a RIC as shown to the operator; credentials are left out.
type ricView struct {
	ID                string   `json:"id" yaml:"id"`
	BaseURL           string   `json:"base_url" yaml:"base_url"`
	Adapter           string   `json:"adapter" yaml:"adapter"`
	Protocol          string   `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Concurrency       int      `json:"concurrency" yaml:"concurrency"`
	Controller        string   `json:"controller,omitempty" yaml:"controller,omitempty"`
	ManagedElementIDs []string `json:"managed_element_ids,omitempty" yaml:"managed_element_ids,omitempty"`
}

func readPolicyFile(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" || path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read policy: %w", err)
	}
	body := strings.TrimSpace(string(data))
	if body == "" {
		return "", fmt.Errorf("policy body is empty")
	}
	return body, nil
}
