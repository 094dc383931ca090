package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newForumsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forums",
		Short: "Read and post in discussion forums",
	}
	cmd.AddCommand(
		newForumsListCmd(),
		newForumsTopicsCmd(),
		newForumsShowCmd(),
		newForumsPostCmd(),
		newForumsReplyCmd(),
		newForumsLikeCmd(),
	)
	return cmd
}

func newForumsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discussion forums",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			forums, err := client.ListForums(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("list forums: %w", err)
			}
			if len(forums) == 0 {
				printf("No forums found.\n")
				return nil
			}
			printf("%-26s  %-30s  %s\n", "ID", "TITLE", "TOPICS")
			for _, f := range forums {
				printf("%-26s  %-30s  %d\n", f.ID, f.Title, f.TopicCount)
			}
			return nil
		},
	}
}

func newForumsTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics <forum-id>",
		Short: "List topics in a forum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			topics, err := client.ListTopics(cmd.Context(), args[0], token)
			if err != nil {
				return fmt.Errorf("list topics: %w", err)
			}
			if len(topics) == 0 {
				printf("No topics yet.\n")
				return nil
			}
			for _, topic := range topics {
				printf("%s  %s — %s, %d replies, %s\n",
					topic.ID, topic.Title, topic.Author, topic.ReplyCount, humanize.Time(topic.CreatedAt))
			}
			return nil
		},
	}
}

func newForumsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <topic-id>",
		Short: "Show a topic and its replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}

			topic, err := client.GetTopic(cmd.Context(), args[0], token)
			if err != nil {
				return fmt.Errorf("get topic: %w", err)
			}
			printf("%s\n%s — %s\n\n%s\n", topic.Title, topic.Author, humanize.Time(topic.CreatedAt), topic.Content)

			replies, err := client.ListReplies(cmd.Context(), topic.ID, token)
			if err != nil {
				return fmt.Errorf("list replies: %w", err)
			}
			for _, r := range replies {
				printf("\n  %s (%s, %d likes)  [%s]\n  %s\n", r.Author, humanize.Time(r.CreatedAt), r.Likes, r.ID, r.Content)
			}
			return nil
		},
	}
}

func newForumsPostCmd() *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "post <forum-id>",
		Short: "Start a new topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			topic, err := client.CreateTopic(cmd.Context(), args[0], token, title, content)
			if err != nil {
				return fmt.Errorf("create topic: %w", err)
			}
			printf("Topic created: %s\n", topic.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Topic title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Topic body (required)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")
	return cmd
}

func newForumsReplyCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "reply <topic-id>",
		Short: "Reply to a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			reply, err := client.Reply(cmd.Context(), args[0], token, content)
			if err != nil {
				return fmt.Errorf("post reply: %w", err)
			}
			printf("Reply posted: %s\n", reply.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "Reply body (required)")
	cmd.MarkFlagRequired("content")
	return cmd
}

func newForumsLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <reply-id>",
		Short: "Like a reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			if err := client.LikeReply(cmd.Context(), args[0], token); err != nil {
				return fmt.Errorf("like reply: %w", err)
			}
			printf("Liked.\n")
			return nil
		},
	}
}
