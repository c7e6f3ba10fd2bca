package main

import (
	"fmt"

	"grievancechat/internal/chatlog"
	"grievancechat/internal/relay"
	"grievancechat/internal/session"
	"grievancechat/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	chatGrievanceID string
	chatIDString    bool
	chatImage       string
)

// chatCmd relays one message for an existing grievance
var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Send one chat message about a grievance and print the reply",
	Long: `Sends a single message to the support chat and prints the reply. With
--image the file is uploaded first and announced in the chat.

Examples:
  grievance chat --id 42 hello
  grievance chat --id 42 --image receipt.png
  grievance chat --id 6512e45 --id-string hello

An --id that parses as a number ("42", "6512e45") is sent as a JSON number.
Pass --id-string to send it as a string instead.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatGrievanceID, "id", "", "Grievance ID returned by submit; numeric values are sent as numbers (omit to send null)")
	chatCmd.Flags().BoolVar(&chatIDString, "id-string", false, "Always send --id as a JSON string")
	chatCmd.Flags().StringVar(&chatImage, "image", "", "Image file to attach")
}

func runChat(cmd *cobra.Command, args []string) error {
	message := joinArgs(args)
	if message == "" && chatImage == "" {
		return fmt.Errorf("a message or --image is required: %w", relay.ErrEmptyMessage)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg, logger.Named("api"))
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	sess := session.New()
	if id := grievanceIDFlag(); !id.IsZero() {
		if err := sess.Bind(id); err != nil {
			return err
		}
	} else {
		logger.Warn("no grievance id given; sending null")
	}

	r := relay.NewChatRelay(client, logger.Named("relay"))
	history := chatlog.New()
	out := cmd.OutOrStdout()

	if chatImage != "" {
		reply, err := r.SendImage(ctx, sess, history, chatImage)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, reply)
	}
	if message != "" {
		reply, err := r.Send(ctx, sess, history, message)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, reply)
	}

	logger.Debug("chat finished",
		zap.String("session", sess.LocalID()),
		zap.Int("entries", history.Len()))
	return nil
}

// grievanceIDFlag interprets --id, honouring --id-string.
func grievanceIDFlag() types.GrievanceID {
	if chatIDString {
		return types.StringGrievanceID(chatGrievanceID)
	}
	return types.ParseGrievanceID(chatGrievanceID)
}
