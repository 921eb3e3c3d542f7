package azurenetwork

import (
	"github.com/netbeacon/azvnet/azure"
	"github.com/spf13/viper"
)

// Config builds the fetcher settings from azvnet.yaml and the environment.
func Config() azure.Config {
	return azure.Config{
		Endpoint:     viper.GetString("arm_endpoint"),
		Concurrency:  viper.GetInt("fetch_concurrency"),
		Verbose:      viper.GetBool("debug") && viper.GetBool("verbose"),
		TenantID:     viper.GetString("azure_tenant_id"),
		ClientID:     viper.GetString("azure_client_id"),
		ClientSecret: viper.GetString("azure_client_secret"),
	}
}
